// Package ftwire compiles typed RediSearch query options into the exact,
// positionally ordered argument lists the FT.* commands expect, and sends
// them through a deferred request/response transport.
//
// Every command builds its arguments lazily: the transport invokes the
// builder only when it is ready to send, so a cancelled call never builds
// and a build failure (for example a count outside the signed 64-bit range)
// never reaches the network.
//
//	c, err := ftwire.New(ftwire.WithRueidis("localhost:6379"))
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	res, err := c.FTAggregate(ctx, "books", "*", ftwire.AggregateOptions{
//		Pipeline: []ftwire.AggregateOperation{
//			ftwire.GroupBy{
//				Fields:   []string{"@author"},
//				Reducers: []ftwire.Reducer{{Func: ftwire.ReduceCount, Name: "n"}},
//			},
//			ftwire.SortBy{Properties: []ftwire.SortProperty{{Property: "@n", Order: ftwire.Desc}}},
//		},
//	})
package ftwire
