package common

// IDLength is the length of every generated record identifier
// (token ids and check ids).
const IDLength = 20
