package gearo_test

import (
	"fmt"
	"log"

	"github.com/petrijr/gearo"
)

// ExampleParseJob shows how a JOB_ASSIGN payload splits into its three
// fields.
func ExampleParseJob() {
	job, err := gearo.ParseJob([]byte("footdle\x00dys\x00some data"))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(job)
	fmt.Println(string(job.Data))
	// Output:
	// job footdle func=dys with 9 bytes of data
	// some data
}

// ExampleJobHandle shows how incremental work data accumulates.
func ExampleJobHandle() {
	h := gearo.NewJobHandle("h:1")
	h.AppendWorkData([]byte("test"))
	h.AppendWorkData([]byte("ing"))

	fmt.Println(string(h.WorkData()))
	// Output: testing
}
