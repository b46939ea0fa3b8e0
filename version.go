package acceptance

// Version is the harness release, overridden at build time with -ldflags "-X".
var Version = "0.1.0"
