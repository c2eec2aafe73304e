package main

import (
	"errors"
	"flagreg/pkg/build"
	"flagreg/pkg/flags"
	"flagreg/pkg/server"
	"flagreg/pkg/utils"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func SetupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Panic().Err(err).Msgf("Failed to parse log level: %s", level)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(logLevel).With().Timestamp().Logger().With().Caller().Logger()
}

// fatal reports a CLI failure and terminates. Every CLI error path exits with
// a success status, help included; exit code selection belongs here, not in
// the flags package.
func fatal(msg string) {
	fmt.Println(msg)
	os.Exit(0)
}

func main() {
	f := flags.New()
	host := f.String("-h", "localhost", "host to listen on")
	port := f.Uint32("-p", 80, "port to listen on")
	address := f.Strings("-address", utils.StringList("127.0.0.1", "::1"), "addresses the service answers for")
	packages := f.FixedStrings("-packages", utils.StringList("libmath", "../third"), "package roots to report")
	verbose := f.String("-v", "debug", "log level")

	if err := f.Parse(os.Args); err != nil {
		if errors.Is(err, flags.ErrHelp) {
			f.PrintHelp(os.Stdout)
			os.Exit(0)
		}
		fatal(err.Error())
	}

	level, err := verbose.Text()
	if err != nil {
		fatal(err.Error())
	}
	SetupLogging(level)

	log.Info().Msg("flagreg - an option registry with opinions.")
	log.Info().Msgf("Build Version: %v Date: %v", build.Data().Version, build.Data().Date)
	if err := build.Validate(); err != nil {
		log.Warn().Err(err).Msg("build was stamped with a non-semver version")
	}

	hostText, err := host.Text()
	if err != nil {
		fatal(err.Error())
	}

	portNum, err := flags.As[uint32](port)
	if err != nil {
		fatal(err.Error())
	}

	svr := server.NewStatusServer(fmt.Sprintf("%s:%d", hostText, portNum), map[string]*flags.Value{
		"-h":        host,
		"-p":        port,
		"-address":  address,
		"-packages": packages,
		"-v":        verbose,
	})

	wgServerStopped := sync.WaitGroup{}
	wgServerStopped.Add(1)
	errChan := make(chan error, 1)
	go func() {
		defer wgServerStopped.Done()
		errChan <- svr.Start()
	}()

	<-svr.IsStarted()

	if f.Has("-address") {
		log.Info().Msgf("answering for addresses: %s", address)
	}

	// Wait for stop signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	log.Info().Msg("All services stopping...")
	svr.Stop()
	wgServerStopped.Wait()

	// Record any errors
	if err := <-errChan; err != nil {
		log.Panic().Err(err).Msgf("failure from %s server", svr.Name)
	}

	log.Info().Msg("goodbye")
}
