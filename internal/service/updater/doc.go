// Package updater drives a single update check from appcast to verdict.
//
// It fetches and parses the release manifest, selects the subscribed channel,
// decides whether the published version warrants an update, downloads the
// artifact and gates it behind signature verification. Apply then replaces
// the installed artifact with the verified download.
//
// Exactly one check runs at a time: a marker file guards against concurrent
// invocations, with stale-marker recovery via a process table scan.
package updater
