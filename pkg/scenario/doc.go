/*
Package scenario threads the executing feature scope through context.Context.

Step definitions never read a global "current feature". The scope is attached
once, when the scenario starts, and every store access resolves it from ctx:

	ctx = scenario.WithScope(ctx, domain.FeatureScope(sc.Uri))
	vars := scenario.NewContext(memory.NewStore())
	_ = vars.Set(ctx, "system_id", id)
*/
package scenario
