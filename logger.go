// Copyright 2020 Sebastian Lehmann. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package godaplink

import (
	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger = nil
)

const MaxLogLevel = logrus.DebugLevel

func init() {
	logger = logrus.New()
	logger.SetLevel(logrus.InfoLevel)
}

// SetLogger replaces the package logger with an externally configured
// logrus instance.
func SetLogger(loggerInstance *logrus.Logger) {
	logger = loggerInstance
}
