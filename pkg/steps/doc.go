/*
Package steps provides godog step definitions for node lifecycle waits,
the scenario context store and node facts.

	func InitializeScenario(sc *godog.ScenarioContext) {
		steps.Register(sc, harness)
	}
*/
package steps
