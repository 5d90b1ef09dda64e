package clan_test

import (
	"flag"
	"log"
	"os"
	"testing"

	"github.com/Black-And-White-Club/clan-service/integration_tests/testutils"
)

var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping clan integration tests in short mode")
		os.Exit(0)
	}

	env, err := testutils.NewTestEnvironment()
	if err != nil {
		log.Printf("Failed to set up test environment: %v", err)
		os.Exit(1)
	}
	testEnv = env

	code := m.Run()
	env.Cleanup()
	os.Exit(code)
}
