package config

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewNode),
)

// NewNode builds the id generator shared by every service.
func NewNode(cfg Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
