package cmd

import (
	"log"

	"github.com/forki/fs-swim/app/server"
	"github.com/forki/fs-swim/pkg/util/config"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	serverAddr  string
	serverPort  string
	serverPeers string
	adminAddr   string
	logLocation string
	logLevel    string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run the membership server",
	Long:  "run the membership server",
	Run:   serverRun,
}

func serverRun(cmd *cobra.Command, args []string) {
	if configFile != "" {
		if err := config.Load(configFile); err != nil {
			log.Fatal(err)
		}
	}

	cfg := config.Server{
		Addr:        pick(serverAddr, config.Get("server.addr"), "localhost"),
		Port:        pick(serverPort, config.Get("server.port"), "51000"),
		Peers:       pick(serverPeers, config.Get("server.peers"), ""),
		AdminAddr:   pick(adminAddr, config.Get("server.admin_addr"), "localhost:51080"),
		ConfigFile:  configFile,
		LogLocation: pick(logLocation, config.Get("log.location"), "stderr"),
		LogLevel:    pick(logLevel, config.Get("log.level"), ""),
		Swim: config.Swim{
			Period:               config.Get("swim.period"),
			Expire:               config.Get("swim.expire"),
			SuspectExpire:        config.Get("swim.suspect_expire"),
			PingRequestGroupSize: config.Get("swim.ping_request_group_size"),
		},
	}

	if err := server.Bootstrap(cfg); err != nil {
		log.Fatal(err)
	}
}

func init() {
	serverCmd.Flags().StringVarP(&configFile, "config", "c", "", "path to the json configuration file")
	serverCmd.Flags().StringVarP(&serverAddr, "bind", "b", "", "address to which the server will bind")
	serverCmd.Flags().StringVarP(&serverPort, "port", "p", "", "udp port on which the swim server will listen")
	serverCmd.Flags().StringVar(&serverPeers, "peers", "", "comma separated list of seed member addresses")
	serverCmd.Flags().StringVar(&adminAddr, "admin", "", "bind address of the admin http endpoint")
	serverCmd.Flags().StringVar(&logLocation, "log", "", "log file location")
	serverCmd.Flags().StringVar(&logLevel, "log-level", "", "log level")
}
