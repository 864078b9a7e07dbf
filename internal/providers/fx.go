package providers

import (
	"github.com/smallbiznis/nasiya/internal/providers/excel"
	"github.com/smallbiznis/nasiya/internal/providers/pdf"
	"github.com/smallbiznis/nasiya/internal/providers/telegram"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	excel.Module,
	pdf.Module,
	telegram.Module,
)
