// Package largedir detects anomalously large directories without
// listing them.
//
// It calibrates a per-device ratio between a directory's raw inode
// size and the number of entries it holds, then walks the tree in
// parallel with fastwalk, estimating each directory's entry count
// from its inode size alone and pruning subtrees whose estimate
// exceeds a blacklist threshold.
package largedir
