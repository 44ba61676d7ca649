package studiomap

// Version is the studiomap release.
const Version = "0.4.0"
