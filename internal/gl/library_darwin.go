package gl

// DefaultLibrary is the GL library opened by Load.
const DefaultLibrary = "/System/Library/Frameworks/OpenGL.framework/OpenGL"
