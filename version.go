package cosmiqgraphql

// Version is the module's semantic version. It is not attached to
// progress events or any other pipeline output.
const Version = "0.1.0"
