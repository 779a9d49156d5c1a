package gl

// DefaultLibrary is the GL library opened by Load. With glvnd the core
// entry points beyond 1.1 are exported from it directly.
const DefaultLibrary = "libGL.so.1"
