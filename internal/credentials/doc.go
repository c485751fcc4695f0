// Package credentials resolves remote-storage credentials from a file path,
// an open reader, or an inline mapping, optionally scoped by deployment
// environment. Resolution happens once per backend activation; this package
// does no caching.
package credentials
