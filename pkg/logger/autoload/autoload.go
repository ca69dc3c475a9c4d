// Package autoload initializes the global logger from LOG_* environment
// variables on import. Blank-import it from main.
package autoload

import (
	configx "github.com/zulls123/greencare/pkg/config"
	logx "github.com/zulls123/greencare/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
