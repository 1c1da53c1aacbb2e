package version

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/urlresolver/urlresolver/color"
	"github.com/urlresolver/urlresolver/constant"
	"github.com/urlresolver/urlresolver/icon"
	"github.com/urlresolver/urlresolver/key"
	"github.com/urlresolver/urlresolver/style"
	"github.com/urlresolver/urlresolver/util"
)

// Notify prints a banner when a newer release is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/urlresolver/urlresolver/releases/tag/v"+version),
	)
}
