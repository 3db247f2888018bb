// Package client contains the field client's connection to the survey server
// and the bootstrap of its local database.
//
// # Overview
//
//  1. Client is the transport-agnostic contract: Ping, Submit, History.
//  2. HTTPClient implements it over the server's REST API. Submissions are
//     sent as multipart/form-data with photos as named file parts.
//  3. HealthPinger is an alternative Pinger that uses the gRPC health
//     service instead of GET /api/ping.
//  4. InitDatabase and RunMigrations open the local SQLite store and apply
//     the embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; non-success statuses wrap
// ErrRejected. Match them with errors.Is.
package client
