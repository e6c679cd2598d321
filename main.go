package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	config, err := loadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Initialize automaton
	ca, renderer, err := initializeAutomaton(config)
	if err != nil {
		log.Fatal(err)
	}
	displayInfo(config, ca)

	// Handle Ctrl+C gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var (
		lastTick  = time.Now()
		lastShown = uint64(0)
	)

	for {
		select {
		case <-sigChan:
			ca.Wait()
			stats := ca.Stats()
			fmt.Println("\n🛑 Shutting down gracefully...")
			fmt.Printf("Final stats: %d generations in %.1f seconds\n",
				stats.Generation, time.Since(stats.StartTime).Seconds())
			return
		default:
			// Continue with main loop
		}

		now := time.Now()
		ca.Tick(now.Sub(lastTick))
		lastTick = now

		frame := ca.Frame()
		if frame.Generation != lastShown {
			lastShown = frame.Generation
			renderer.Clear()
			displayStatus(ca, frame)
			renderer.Display(frame, frame.SY/2)
		}

		if config.MaxGenerations > 0 && frame.Generation >= uint64(config.MaxGenerations) {
			fmt.Printf("\n🏁 Reached maximum generations limit (%d)\n", config.MaxGenerations)
			break
		}
		if isManual(ca) && !ca.IsComputing() {
			fmt.Printf("\n⏸ Preset finished after %d generations (manual stepping)\n", frame.Generation)
			break
		}
		if !ca.IsAlive() && !ca.IsComputing() {
			fmt.Printf("\n💀 Extinct after %d generations\n", frame.Generation)
			break
		}

		time.Sleep(config.FrameRate)
	}
	ca.Wait()
}
