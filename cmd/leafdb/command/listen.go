package command

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"golang.org/x/net/netutil"
	"gopkg.in/yaml.v2"

	"github.com/joeandaverde/leafdb/engine"
	"github.com/joeandaverde/leafdb/internal/server"
)

// ListenCommand serves a database over TCP.
type ListenCommand struct {
	ShutDownCh <-chan struct{}
}

func (i *ListenCommand) Help() string {
	helpText := `
Usage: leafdb listen [options]

Options:

	-config="leafdb.yml"	Database configuration file
`

	return strings.TrimSpace(helpText)
}

func (i *ListenCommand) Synopsis() string {
	return "Accepts client connections to interact with the database"
}

func (i *ListenCommand) Run(args []string) int {
	var configPath string

	cmdFlags := flag.NewFlagSet("listen", flag.ContinueOnError)
	cmdFlags.StringVar(&configPath, "config", "leafdb.yml", "config file")

	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	configFile, err := os.Open(configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error opening config file: %s\n", err.Error())
		return 1
	}
	defer configFile.Close()

	config := &engine.Config{}
	if err := yaml.NewDecoder(configFile).Decode(config); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err.Error())
		return 1
	}

	db, err := engine.Start(config)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error opening database: %s\n", err.Error())
		return 1
	}
	defer db.Close()

	ln, err := net.Listen("tcp", config.Addr)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error listening on %s: %s\n", config.Addr, err.Error())
		return 1
	}
	defer ln.Close()

	if config.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, config.MaxConnections)
	}

	srv := server.NewServer(db.Log)
	go func() {
		<-i.ShutDownCh
		srv.Shutdown()
		ln.Close()
	}()

	if err := srv.Serve(ln, db); err != nil && err != server.ErrServerClosed {
		db.Log.WithError(err).Error("server stopped")
		return 1
	}

	return 0
}
