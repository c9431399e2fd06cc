package framework

// Version is reported in the User-Agent header and by the CLI.
const Version = "1.2.0"
