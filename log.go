package main

import (
	"github.com/ShaiW/blanim/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BLNM")
