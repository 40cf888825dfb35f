package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jonboulle/clockwork"
)

var wg sync.WaitGroup

// segclock -config={config file}

func main() {
	configFile := flag.String("config", "/etc/default/segclock/segclock.conf", "config file path (.conf/.json or .toml)")
	echo := flag.Bool("stderr", false, "copy the log to stderr")
	flag.Parse()

	// read config information
	settings := initSettings(*configFile)

	logFile, err := setupLogging(settings, *echo)
	if err != nil {
		log.Fatalf("Error: %s", err.Error())
	}
	defer logFile.Close()

	// dump them (debugging)
	log.Println(">>> Settings <<<")
	settings.Dump()
	log.Println(">>> Settings <<<")

	rt := initRuntime(clockwork.NewRealClock(), settings)

	hw, err := openHardware(settings)
	if err != nil {
		log.Fatalf("Error: %s", err.Error())
	}
	defer hw.Close()
	rt.chain = hw.chain
	openDisplay(&rt, hw.tx)

	// ctrl-c and kill stop everyone
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sig:
			log.Printf("got %s, stopping", s)
			rt.comms.stop()
		case <-rt.comms.quit:
		}
	}()

	startDisplay(rt)
	if addr := settings.GetString(sStatusAddr); addr != "" {
		startStatusService(rt, &httpStatusService{}, addr)
	}
	if rt.chain != nil && settings.GetBool(sTerm) {
		startTermDisplay(rt)
	}

	wg.Wait()

	// leave the chain dark
	rt.display.Clear(false)
	rt.display.Flip(true)
	rt.display.Shutdown(true)
	log.Println("segclock stopped")
}
