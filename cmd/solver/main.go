// Command solver solves .desc coverage tasks headlessly, writing a .sol file
// beside each input. Independent tasks are fanned out over a worker pool;
// nothing is shared between tasks beyond the work queue, the optional
// results index, and the optional solution archive.
//
//	solver [-threads N] [-seed S] [-tuning file.yaml]
//	       [-results runs.db] [-archive out.zst] [-interactive]
//	       task1.desc [task2.desc ...]
//	solver -list-archive out.zst
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/novitzke/gridwrap/internal/resultdb"
	"github.com/novitzke/gridwrap/internal/solarchive"
	"github.com/novitzke/gridwrap/internal/solve"
)

type taskResult struct {
	task     string
	score    int
	drones   int
	turns    int
	duration time.Duration
	prevBest int
	hadBest  bool
	err      error
}

func main() {
	var (
		threads     int
		seed        int64
		tuningPath  string
		resultsPath string
		archivePath string
		interactive bool
	)
	flag.IntVar(&threads, "threads", 1, "number of worker threads")
	flag.Int64Var(&seed, "seed", 1, "zone partitioner seed (overrides tuning)")
	flag.StringVar(&tuningPath, "tuning", "", "optional YAML tuning file")
	flag.StringVar(&resultsPath, "results", "", "optional sqlite results index")
	flag.StringVar(&archivePath, "archive", "", "optional zstd solution archive")
	flag.BoolVar(&interactive, "interactive", false, "render the solve in the terminal (single task only)")
	var listArchive string
	flag.StringVar(&listArchive, "list-archive", "", "print the entries of a solution archive and exit")
	flag.Parse()

	if listArchive != "" {
		entries, err := solarchive.Read(listArchive)
		if err != nil {
			log.Fatalf("archive: %v", err)
		}
		for _, e := range entries {
			fmt.Printf("%s \tscore=%d len=%d\n", e.Name, solve.Score(e.Solution), len(e.Solution))
		}
		return
	}

	tasks := flag.Args()
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "usage: solver [flags] <task.desc> [...]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	for _, t := range tasks {
		if !strings.HasSuffix(t, ".desc") {
			log.Fatalf("task %q: expected a .desc file", t)
		}
	}
	if threads <= 0 {
		threads = 1
	}

	tn := solve.DefaultTuning()
	if tuningPath != "" {
		var err error
		if tn, err = solve.LoadTuning(tuningPath); err != nil {
			log.Fatalf("tuning: %v", err)
		}
	}
	tn.ZoneSeed = seed

	if interactive {
		if len(tasks) != 1 {
			log.Fatal("-interactive supports exactly one task")
		}
		if err := runInteractive(tasks[0], tn); err != nil {
			log.Fatalf("%s: %v", tasks[0], err)
		}
		return
	}

	var db *resultdb.DB
	if resultsPath != "" {
		var err error
		if db, err = resultdb.Open(resultsPath); err != nil {
			log.Fatalf("results: %v", err)
		}
		defer db.Close()
	}
	var arch *solarchive.Writer
	if archivePath != "" {
		var err error
		if arch, err = solarchive.NewWriter(archivePath); err != nil {
			log.Fatalf("archive: %v", err)
		}
		defer func() {
			if err := arch.Close(); err != nil {
				log.Printf("archive close: %v", err)
			}
		}()
	}

	tStart := time.Now()
	queue := make(chan string)
	results := make(chan taskResult, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				results <- solveTask(task, tn, db, arch)
			}
		}()
	}
	go func() {
		for _, t := range tasks {
			queue <- t
		}
		close(queue)
		wg.Wait()
		close(results)
	}()

	failed := 0
	totalScore := 0
	solved := 0
	for r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("%s \tFAILED: %v\n", r.task, r.err)
			continue
		}
		fmt.Println(formatResult(r))
		totalScore += r.score
		solved++
	}

	if len(tasks) > 1 {
		fmt.Printf("\n=== Batch Summary ===\n")
		fmt.Printf("tasks=%d solved=%d failed=%d total_score=%d time=%dms\n",
			len(tasks), solved, failed, totalScore, time.Since(tStart).Milliseconds())
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// formatResult renders one per-task report line.
func formatResult(r taskResult) string {
	line := fmt.Sprintf("%s \tscore=%d drones=%d turns=%d time=%dms",
		r.task, r.score, r.drones, r.turns, r.duration.Milliseconds())
	if r.hadBest && r.score < r.prevBest {
		line += fmt.Sprintf(" (new best, was %d)", r.prevBest)
	}
	return line
}

// solPathFor maps a task file to its solution file.
func solPathFor(task string) string {
	return strings.TrimSuffix(task, ".desc") + ".sol"
}

// solveTask runs one task to completion and writes its .sol file.
func solveTask(task string, tn *solve.Tuning, db *resultdb.DB, arch *solarchive.Writer) (res taskResult) {
	res.task = task

	// An invariant violation aborts this task, not the batch.
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("aborted: %v", r)
		}
	}()

	raw, err := os.ReadFile(task)
	if err != nil {
		res.err = err
		return res
	}
	lv, drone, err := solve.ParseDesc(string(raw))
	if err != nil {
		res.err = err
		return res
	}
	lv.Finalize(tn.ZoneSeed)

	tStart := time.Now()
	solver := solve.NewSolver(lv, drone, tn, nil)
	solution := solver.Solve()
	res.duration = time.Since(tStart)
	res.score = solve.Score(solution)
	res.drones = len(solver.Drones)
	res.turns = solver.Turn()

	if err := os.WriteFile(solPathFor(task), []byte(solution), 0o644); err != nil {
		res.err = err
		return res
	}
	if db != nil {
		if best, ok, err := db.Best(task); err == nil && ok {
			res.prevBest = best
			res.hadBest = true
		}
		if err := db.Record(resultdb.Run{
			Task:     task,
			Score:    res.score,
			Drones:   res.drones,
			Turns:    res.turns,
			Seed:     tn.ZoneSeed,
			Duration: res.duration,
		}); err != nil {
			log.Printf("%s: results: %v", task, err)
		}
	}
	if arch != nil {
		if err := arch.Add(task, solution); err != nil {
			log.Printf("%s: archive: %v", task, err)
		}
	}
	return res
}
