package storage

import (
	"errors"

	"forumview/pkg/pagination"
)

type Direction int

const (
	DirectionUnspecified Direction = iota
	DirectionAfter
	DirectionBefore
)

var (
	ErrDirectionUnset = errors.New("direction must be set")
)

type GetThreadsParams struct {
	Cursor    pagination.Cursor
	Direction Direction
	Limit     int
	ViewerID  int64
}
