/*
Package statsd reports the instruments of a metric.Registry to a statsd style
daemon over TCP or UDP, one text line per instrument attribute:

	<prefix>.<name>.<attribute> <value> <timestamp>\n

Names have whitespace runs replaced by '_'. The timestamp is the local time
the attribute was read.

Lines are buffered and sent when BatchSize samples have accumulated, and at
the end of each reporting cycle. A batch goes out in one write: a single
datagram for UDP, a single write on a persistent stream for TCP.

	reporter, err := statsd.New(registry, "statsd.local", 8125,
		statsd.Conn(statsd.ConnTCP),
		statsd.Prefix("app"),
		statsd.BatchSize(50))
	if err != nil {
		log.Fatal(err)
	}
	defer reporter.Stop()

	if err := reporter.Write(); err != nil {
		// the daemon is unreachable, samples stay buffered
	}

The Reporter does not schedule itself. Call Write from a ticker or whatever
drives reporting in the application. Errors are returned, never retried: a
broken TCP connection stays broken until the Reporter is replaced.
*/
package statsd
