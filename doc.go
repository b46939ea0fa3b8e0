/*
Package acceptance is the polling and timeout engine behind a BDD acceptance suite
that reboots nodes and drives a web console.

Everything a step needs is reachable from a Harness:

  - Polling: bounded retries with a wall-clock deadline enforced twice (see pkg/poll).
  - Node lifecycle: wait for a node to go down, then for its network and its command channel to come back (see pkg/lifecycle).
  - UI transitions: wait, best-effort, for the console's loading marker after a click (see pkg/uiguard).
  - Scenario context: a scratch store scoped by the executing feature (see pkg/scenario).

# Usage

	h, err := acceptance.NewFromFile("acceptance.yaml")
	if err != nil {
		log.Fatal(err)
	}
	defer h.Close()

	suite := godog.TestSuite{
		Name:                "acceptance",
		ScenarioInitializer: h.InitializeScenario,
	}
	os.Exit(suite.Run())

A scenario can then say:

	When I reboot "sle_minion"
	Then "sle_minion" should come back within 600 seconds

Hosts are resolved through the "hosts" table of the configuration file and
reached over ssh in batch mode.
*/
package acceptance
