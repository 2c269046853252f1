package optikit

// Version is the release version stamped into the CLI.
const Version = "0.1.0"
