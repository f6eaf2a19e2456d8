// Package host is the client side of paperchat's MCP connections.
//
// A [Pool] launches one MCP server per configured entry and owns the
// resulting sessions. A [Catalog] lists each session's tools, resources,
// resource templates and prompts and merges them into one namespace, so
// the conversation loop can route a call by name without knowing which
// server answers it. Servers that reject or do not advertise a listing
// call contribute nothing for that capability and leave a [Notice].
package host
