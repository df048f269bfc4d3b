// Read one code from the USB scanner, power-cycling it until a code is
// captured or the try budget runs out.
//
// Usage: scan [tries]
// No argument or an unparsable one means effectively unlimited tries.
// Success prints the decoded code as one stdout line, exit 0. Exhausted
// tries print nothing, exit 0. Hard I/O errors go to stderr, exit
// non-zero.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/vmc-kiosk/scanner/internal/state"
	"github.com/vmc-kiosk/scanner/log2"
)

var log = log2.NewStderr(log2.LInfo)

func main() {
	flagConfig := flag.String("config", "scan.hcl", "")
	flagQR := flag.Bool("qr", false, "echo captured code as terminal QR")
	flagDebug := flag.Bool("debug", false, "")
	flag.Parse()

	if sdnotify("READY=0\nSTATUS=scan start\n") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	if *flagDebug {
		log.SetLevel(log2.LDebug)
	}

	tries := math.MaxInt32
	if arg := flag.Arg(0); arg != "" {
		if n, err := strconv.Atoi(arg); err == nil {
			tries = n
		} else {
			log.Infof("tries argument=%q ignored, scanning until code or signal", arg)
		}
	}

	g := state.NewGlobal(log)
	g.MustInit(state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig))

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigch
		g.Alive.Stop()
	}()

	scanner, err := g.Scanner()
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	defer g.Close()

	sdnotify(daemon.SdNotifyReady)
	result, err := scanner.Scan(tries)
	if err != nil {
		log.Error(errors.ErrorStack(err))
		g.Close()
		os.Exit(exitCode(err))
	}
	if !result.Ok {
		// no code within the budget is not an error, just no output
		return
	}
	fmt.Println(result.Code)
	if *flagQR {
		if qr, qrErr := qrcode.New(result.Code, qrcode.Medium); qrErr == nil {
			fmt.Print(qr.ToSmallString(false))
		} else {
			log.Errorf("qr encode err=%v", qrErr)
		}
	}
}

// Propagate the platform error number when there is one.
func exitCode(err error) int {
	cause := errors.Cause(err)
	if errno, ok := cause.(syscall.Errno); ok && errno != 0 {
		return int(errno)
	}
	return 1
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
