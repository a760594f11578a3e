// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnv reads a .env file first, then ParseFlags returns a Config:

	if err := cliparse.LoadEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p, --port            PORT                    (default 3318)
	-d, --database-url    DATABASE_URL            (required unless memory)
	-t, --database-type   DATABASE_TYPE           memory|sqlite|postgres|redis (default sqlite)
	    --redis-prefix    REDIS_KEY_PREFIX        (default devpoker:)
	    --token           DEVPOKER_BOT_API_TOKEN  (required)
	    --mode            BOT_MODE                polling|webhook (default polling)
	    --webhook-url     WEBHOOK_URL             (required in webhook mode)
	    --webhook-secret  WEBHOOK_SECRET
	    --query-token     QUERY_TOKEN             (query routes are off when empty)
	    --deck            DECK_PATH               (built-in deck when empty)
	    --log-level       LOG_LEVEL               debug|info|warn|error (default info)

CLI flags take precedence over environment variables, which take precedence
over defaults. Variables already in the environment win over the .env file.
*/
package cliparse
