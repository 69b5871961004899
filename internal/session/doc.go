// Package session coordinates a lens render session.
//
// A Coordinator is an explicit session object: the caller creates it, posts
// commands to it from any goroutine, and reads events from it. Run executes
// on its own goroutine and is the only code that touches the renderer and
// the surface it was handed.
//
//	c, _ := session.New(lens.DefaultConfig())
//	go c.Run(ctx)
//	c.Post(session.Init{Surface: surface.Transfer(), Background: pix, BackgroundSize: size})
//	c.Post(session.ToggleLens{Enabled: true})
//	c.Post(session.PointerMove{Position: image.Pt(40, 60)})
//	for ev := range c.Events() { ... }
//
// Commands are processed strictly in order and each one runs to completion.
// Posting never blocks. PointerMove commands are all rendered unless the
// coordinator was built WithCoalescedMoves.
package session
