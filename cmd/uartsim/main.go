// Command uartsim drives the simulated UART from the host: a demo, the
// self-test, stimulus scripts, register dumps, a framed integrity run and an
// interactive console.
package main

import "log"

func main() {
	log.SetFlags(0)
	log.SetPrefix("uartsim: ")
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
