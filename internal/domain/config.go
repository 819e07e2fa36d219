package domain

// KeyPrefix namespaces every key written to the shared Redis store.
const KeyPrefix = "retaildex:"
