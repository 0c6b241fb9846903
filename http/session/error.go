package session

import (
	"fmt"

	"github.com/xy-planning-network/checkpoint"
)

var (
	ErrNoPrincipal = fmt.Errorf("%w: no principal in session", checkpoint.ErrNotExist)
)
