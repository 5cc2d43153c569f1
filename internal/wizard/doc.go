// Package wizard serves the setup wizard's HTTP surface: the OAuth exchange
// endpoint, the session inspection API, the finalize step that writes
// credentials into the env file, the telemetry opt-in and the development
// helper page.
//
// Every JSON endpoint answers {success:false, error} on failure. The OAuth
// exchange endpoint answers 200 for every outcome.
package wizard
