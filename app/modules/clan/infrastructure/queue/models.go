package clanqueue

// AdminDeleteJob deletes a clan on behalf of an admin and reports back to them.
type AdminDeleteJob struct {
	ClanID        int64  `json:"clan_id"`
	CallerID      int64  `json:"caller_id"`
	CorrelationID string `json:"correlation_id"`
}

// Kind returns the job type identifier for River
func (AdminDeleteJob) Kind() string { return "clan_admin_delete" }

// AdminReply is published to the admin reply topic.
type AdminReply struct {
	CallerID      int64  `json:"caller_id"`
	Text          string `json:"text"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
