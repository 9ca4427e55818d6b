package config

import "github.com/sirupsen/logrus"

// log 配置模块的日志记录器
var log = logrus.WithField("module", "config")
