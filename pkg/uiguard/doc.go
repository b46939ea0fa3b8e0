/*
Package uiguard composes UI interactions with a wait for the console's AJAX transition.

The console shows a loading marker (".senna-loading" by default) while it swaps pages.
Guard performs an interaction and then waits for the marker to disappear; if it does
not, the failure is logged and the scenario carries on.

	guard := uiguard.New(page, uiguard.WithLogger(logger))
	if err := guard.ClickButton(ctx, "Update Properties"); err != nil {
		return err
	}
*/
package uiguard
