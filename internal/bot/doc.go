// Package bot connects chat events to the abbreviation lookup.
//
// There are three entry points, all backed by one abbr.Client:
//   - explicit command: "/abbr yyds" (aliases: 缩写, nbnhhsh, hhsh)
//   - passive keyword: "abbr yyds" without prefix, only when IGNORE_PREFIX=true
//   - tool call: the "abbr" tool with an optional "text" argument
//
// Every entry point replies once and then stops the event so no later handler
// sees it. Upstream failures are returned to the caller unreplied.
//
// # Usage
//
//	resolver := abbr.NewResolver(cfg.Abbr.APIURL, abbr.WithLogger(logger))
//	plugin := bot.NewPlugin(resolver, bot.Options{IgnorePrefix: true, CommandPrefix: "/"})
//	dispatcher := bot.NewPluginDispatcher(plugin)
//
//	ev := bot.NewMessageEvent("", "/abbr yyds")
//	if err := dispatcher.Dispatch(ctx, ev); err != nil {
//		// report upstream failure
//	}
//	fmt.Println(ev.Replies()) // [yyds：永远的神]
package bot
