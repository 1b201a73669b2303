// Package event provides the synchronous notification bus used to announce
// structural changes of the component tree.
//
// Handlers run in the publisher's goroutine, in priority order and then in
// subscription order. A handler panic is recovered and reported as a
// *PanicError; remaining handlers still run.
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("component.**", func(ctx context.Context, ev event.Envelope) error {
//		log.Printf("%s %v", ev.Topic, ev.Payload)
//		return nil
//	})
//	defer bus.Unsubscribe(sub)
//
//	_ = bus.Publish(ctx, "component.added", payload)
package event
