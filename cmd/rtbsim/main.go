// Command rtbsim replays a synthetic load trace against a single
// reactive-token-bucket resource and prints the token allocation
// reserve() computes after each tick, so a configuration's fair-share
// and penalty behavior can be eyeballed without standing up a proxy.
//
// The trace format is one line per tick; each line is a
// comma-separated list of "tenant:count" pairs giving how many units
// of load that tenant generated during the tick, e.g.:
//
//	alice:120,bob:40
//	alice:90,bob:200,carol:10
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/trafficedge/core/rtb"
)

func main() {
	configPath := flag.String("config", "", "path to an RTB configuration document")
	resourceName := flag.String("resource", "", "resource name within the configuration to simulate")
	tracePath := flag.String("trace", "", "path to a load trace, or '-' for stdin")
	flag.Parse()

	if *configPath == "" || *resourceName == "" {
		log.Fatal("rtbsim: -config and -resource are required")
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("rtbsim: reading config: %v", err)
	}
	cfg, err := rtb.LoadConfig(data, []string{*resourceName})
	if err != nil {
		log.Fatalf("rtbsim: %v", err)
	}
	rc, ok := cfg.Resources[*resourceName]
	if !ok {
		log.Fatalf("rtbsim: resource %q not present in configuration", *resourceName)
	}

	logger := rtb.NewStdLogger(os.Stderr)
	mgr := rtb.NewManager(logger)
	limiter := rtb.NewV1(rtb.Counter, rc.Conf())
	mgr.RegisterResource(*resourceName, rtb.Restriction, limiter)

	sink := rtb.NewMapSink()
	pub := rtb.NewPublisher("rtbsim", sink)

	traceFile := os.Stdin
	if *tracePath != "" && *tracePath != "-" {
		f, err := os.Open(*tracePath)
		if err != nil {
			log.Fatalf("rtbsim: opening trace: %v", err)
		}
		defer f.Close()
		traceFile = f
	}

	scanner := bufio.NewScanner(traceFile)
	tick := 0
	for scanner.Scan() {
		tick++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		for _, entry := range strings.Split(line, ",") {
			name, countStr, ok := strings.Cut(entry, ":")
			if !ok {
				log.Fatalf("rtbsim: tick %d: malformed entry %q", tick, entry)
			}
			count, err := strconv.Atoi(countStr)
			if err != nil {
				log.Fatalf("rtbsim: tick %d: %v", tick, err)
			}
			id := mgr.RegisterTenant(name)
			for i := 0; i < count; i++ {
				mgr.Inc(*resourceName, id)
				mgr.IsFull(*resourceName, id)
			}
		}

		limiter.Filter()
		if err := pub.Publish(mgr, *resourceName); err != nil {
			log.Fatalf("rtbsim: %v", err)
		}
		limiter.Reserve()
		tenants, global := limiter.Snapshot()

		fmt.Printf("tick %d:\n", tick)
		for _, name := range allTenantNames(line) {
			id := mgr.RegisterTenant(name)
			denied, _ := sink.Get(fmt.Sprintf("rtbsim.%s.%s.denied", *resourceName, name))
			fmt.Printf("  %-16s token=%-6d denied=%d\n", name, tenants[id].Token, denied)
		}
		fmt.Printf("  %-16s token=%d\n", "(global)", global.Token)
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}

func allTenantNames(line string) []string {
	var names []string
	for _, entry := range strings.Split(line, ",") {
		name, _, ok := strings.Cut(entry, ":")
		if ok {
			names = append(names, name)
		}
	}
	return names
}
