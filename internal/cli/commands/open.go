package commands

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quitq-dev/quitq/internal/guard"
)

// NewOpenCmd creates the open command
func NewOpenCmd(d *Deps, webURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Open the web storefront in browser",
		Long: `Open the quitq-web storefront in the default browser.

Without a path it opens the landing page of your account.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := guard.HomePath
			if st := d.Session.State(); st.Authenticated() {
				path = guard.Landing(st.Role())
			}
			if len(args) == 1 {
				path = "/" + strings.TrimPrefix(args[0], "/")
			}
			return runOpen(d, webURL(), path)
		},
	}
}

func runOpen(d *Deps, webURL, path string) error {
	if _, ok := guard.Lookup(path); !ok && !isDetailPath(path) {
		return fmt.Errorf("unknown page '%s'", path)
	}

	u, err := url.JoinPath(webURL, path)
	if err != nil {
		return fmt.Errorf("invalid web_url %q: %w", webURL, err)
	}

	fmt.Fprintf(d.out(), "Opening %s...\n", u)

	if err := openBrowser(u); err != nil {
		return fmt.Errorf("failed to open browser: %w\nPlease visit: %s", err, u)
	}
	return nil
}

// isDetailPath matches the parameterised routes such as /products/:id
func isDetailPath(path string) bool {
	for _, r := range guard.Routes {
		prefix, ok := strings.CutSuffix(r.Path, ":id")
		if ok && strings.HasPrefix(path, prefix) && len(path) > len(prefix) && !strings.Contains(path[len(prefix):], "/") {
			return true
		}
	}
	return false
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
