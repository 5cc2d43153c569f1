// Package exchange turns an OAuth authorization code into an access token,
// a user identity and, optionally, tunnel credentials.
//
// A run executes the steps token, identity, email and tunnel in that order.
// What a failed step does to the run is data: token and identity failures
// end the run, while email and tunnel failures are logged and the run
// continues without their values. Successful runs that produced tunnel
// credentials and carry a session id are written to a SessionWriter.
//
// In development mode no network calls are made and fixed mock values are
// returned instead.
package exchange
