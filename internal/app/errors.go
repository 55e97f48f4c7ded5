package service

import "errors"

// ErrWeightedFreeForAll is returned for free-for-all matches that set player
// weights; pairwise evaluation uses full participation only.
var ErrWeightedFreeForAll = errors.New("free-for-all does not support player weights")
