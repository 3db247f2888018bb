// Package connectivity tells "the device has a link" apart from "the survey
// server answers".
//
// Monitor follows link-layer state from a LinkSource and calls a handler on
// every down to up transition. Link-up often arrives before DNS and routing
// have settled, so handlers confirm with Prober.ProbeServer, which retries a
// cheap health check with a fixed pause between attempts.
package connectivity
