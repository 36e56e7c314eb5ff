package server

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/forki/fs-swim/pkg/swim"
	"github.com/forki/fs-swim/pkg/util/config"
	"github.com/forki/fs-swim/pkg/util/mlog"
	"github.com/forki/fs-swim/pkg/util/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Entry

// Bootstrap build up the membership server: logging, the swim server
// on its UDP transport and the admin http endpoint. It blocks until a
// terminate signal is received.
func Bootstrap(cfg config.Server) error {
	// Setup logger.
	if err := mlog.Init(cfg.LogLocation); err != nil {
		return errors.Wrap(err, "init log failed")
	}
	if cfg.LogLevel != "" {
		if err := mlog.SetLevel(cfg.LogLevel); err != nil {
			return errors.Wrap(err, "set log level failed")
		}
	}
	logger = mlog.GetPackageLogger("app/server")

	ctxLogger := mlog.GetFunctionLogger(logger, "Bootstrap")
	ctxLogger.Info("start bootstrap swim server ...")

	// Generates server run ID.
	cfg.ID = uuid.Gen()

	swimConf := makeSwimConfig(&cfg)

	trans, err := swim.NewUDPTransport(swimConf.Address)
	if err != nil {
		return errors.Wrap(err, "failed to bind swim transport")
	}

	swimSrv, err := swim.NewServer(swimConf, trans, mlog.GetPackageLogger("pkg/swim"))
	if err != nil {
		return errors.Wrap(err, "failed to create swim server")
	}
	go swimSrv.Serve()

	delivery := newDeliveryService(&cfg, swimSrv)
	delivery.run()

	if cfg.ConfigFile != "" {
		go watchConfig(cfg.ConfigFile)
	}

	ctxLogger.WithFields(logrus.Fields{
		"id":      cfg.ID,
		"address": swimConf.Address,
	}).Info("bootstrap swim server succeeded")

	// Make channel for Ctrl-C or other terminate signal is received.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sigc

	ctxLogger.Info("received stop signal from OS")
	delivery.stop()
	return swimSrv.Stop()
}

// makeSwimConfig translates the string based file configuration into
// the protocol config. Unparsable timing values keep the defaults and
// only log, in keeping with every option being optional.
func makeSwimConfig(cfg *config.Server) *swim.Config {
	ctxLogger := mlog.GetFunctionLogger(logger, "makeSwimConfig")

	swimConf := swim.DefaultConfig()
	swimConf.Address = swim.NodeAddress(net.JoinHostPort(cfg.Addr, cfg.Port))

	for _, p := range strings.Split(cfg.Peers, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		swimConf.Peers = append(swimConf.Peers, swim.NodeAddress(p))
	}

	if cfg.Swim.Period != "" {
		if t, err := time.ParseDuration(cfg.Swim.Period); err != nil {
			ctxLogger.Error(errors.Wrap(err, "invalid swim period"))
		} else {
			swimConf.PingPeriod = t
		}
	}
	if cfg.Swim.Expire != "" {
		if t, err := time.ParseDuration(cfg.Swim.Expire); err != nil {
			ctxLogger.Error(errors.Wrap(err, "invalid swim expire"))
		} else {
			swimConf.PingExpire = t
		}
	}
	if cfg.Swim.SuspectExpire != "" {
		if t, err := time.ParseDuration(cfg.Swim.SuspectExpire); err != nil {
			ctxLogger.Error(errors.Wrap(err, "invalid swim suspect expire"))
		} else {
			swimConf.SuspectExpire = t
		}
	}
	if cfg.Swim.PingRequestGroupSize != "" {
		if k, err := strconv.Atoi(cfg.Swim.PingRequestGroupSize); err != nil {
			ctxLogger.Error(errors.Wrap(err, "invalid ping request group size"))
		} else {
			swimConf.PingRequestGroupSize = k
		}
	}

	return swimConf
}
