package ghostdagmanager

import (
	"github.com/ShaiW/blanim/infrastructure/logger"
)

var log = logger.RegisterSubSystem("GDAG")
