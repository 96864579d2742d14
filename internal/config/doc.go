// Package config defines the per-application update settings and provides
// helpers to load, validate and save them in YAML format.
//
// The Config type holds the installed version, the appcast URL, the
// subscribed channel and the trusted public key location. The check pipeline
// reads a snapshot of it once per run; only the channel subscription and the
// skip preference are expected to change between runs.
package config
