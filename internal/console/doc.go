// Package console implements the interactive terminal session: it asks for a
// city, month and day, prints the four statistic groups with their compute
// times and lets the user page through the filtered trips five at a time.
//
// Input is read line by line, so the console can be driven from a pipe or a
// test just as well as from a terminal:
//
//	c := console.New(os.Stdin, os.Stdout, analysisService, config.ConsolePageSize, logger)
//	if err := c.Run(ctx); err != nil {
//		...
//	}
package console
