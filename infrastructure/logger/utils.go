package logger

import "time"

// LogAndMeasureExecutionTime logs that the given function has started and
// returns a function that, when called, logs its execution time.
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Tracef("%s start", functionName)
	return func() {
		log.Tracef("%s end. Took: %s", functionName, time.Since(start))
	}
}
