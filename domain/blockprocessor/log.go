package blockprocessor

import (
	"github.com/ShaiW/blanim/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PROC")
