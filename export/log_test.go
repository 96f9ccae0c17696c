package export

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog_AppendRelationship(t *testing.T) {
	var testCases = []struct {
		description string
		attributes  map[string]string
		expect      string
	}{
		{
			description: "with field",
			attributes:  map[string]string{"field": "orderType"},
			expect: "==========Relationship (rel/1)==========\n" +
				"type: uses\nfrom: node/1\nto: node/2\n" +
				"data:\n field : {orderType},\n",
		},
		{
			description: "without data",
			expect: "==========Relationship (rel/1)==========\n" +
				"type: uses\nfrom: node/1\nto: node/2\n",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			log := &Log{}
			log.AppendRelationship("rel/1", "node/1", "node/2", "uses", testCase.attributes)
			assert.Equal(t, testCase.expect, log.String())
		})
	}
}

func TestLog_ConcurrentAppends(t *testing.T) {
	log := &Log{}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.AppendNode("node/x", "CREATE (n:pkg { }) RETURN n", map[string]string{"a": "STRING", "b": "INT32"})
		}()
	}
	wg.Wait()
	record := "==========Node (node/x)==========\nCREATE (n:pkg { }) RETURN n\ndata:\n a : {STRING}, b : {INT32},\n"
	assert.Equal(t, strings.Repeat(record, 100), log.String())
}
