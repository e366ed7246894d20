package bucketer

// AllocateValue exposes the range search to tests with an explicit bucket
// value, so boundary behavior can be pinned without reversing the hash.
var AllocateValue = allocateValue
