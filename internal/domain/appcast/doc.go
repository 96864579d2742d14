// Package appcast contains the release-manifest domain model.
//
// It defines Version (an ordered dotted numeric version), Channel (a release
// track entry) and Appcast (the parsed manifest with a forward-compatible raw
// view), together with ParseManifest and SelectChannel and the error taxonomy
// callers branch on.
package appcast
