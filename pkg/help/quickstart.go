package help

// QuickStartYAML is printed by `sbc-prices quickstart`. The config section is
// a complete example config.yaml.
const QuickStartYAML = `# sbc-prices Quick Start

commands:
  scrape_once: |
    sbc-prices scrape

  scrape_hourly: |
    sbc-prices scrape --every 1h

  scrape_without_side_effects: |
    sbc-prices scrape --no-save --no-notify

  scrape_for_later_notify: |
    sbc-prices scrape --no-notify --results-file scraping_results.json
    sbc-prices notify --results-file scraping_results.json

  latest_prices: |
    sbc-prices latest --format yaml

  rating_history: |
    sbc-prices history 86 --limit 20

  export_history: |
    sbc-prices history 86 --limit 500 --export rating86.xlsx

  heartbeat: |
    sbc-prices ping

  http_api: |
    sbc-prices serve --addr :8080

environment:
  NTFY_TOPIC: "ntfy topic to publish to"
  NTFY_SERVER: "ntfy server (default https://ntfy.sh)"
  SMTP_SERVER: "enables email together with EMAIL_FROM and EMAIL_TO"
  SMTP_PORT: "default 587"
  SMTP_USERNAME: "optional, PLAIN auth"
  SMTP_PASSWORD: "optional"
  EMAIL_FROM: "sender address"
  EMAIL_TO: "comma separated recipients"
  DATABASE_URL: "MySQL DSN, switches storage to mysql"
  SBC_DB_PATH: "SQLite file path"
  LOG_LEVEL: "debug, info, warn or error"

config:
  fetch:
    mode: http            # http | browser
    base_url: https://www.futbin.com
    cheapest_url: https://www.futbin.com/squad-building-challenges/cheapest
    timeout: 60s
    fallback_timeout: 30s
    settle_delay: 3s      # browser mode only
    cache_dir: .sbc-cache
    cache_ttl: 0s         # > 0 enables the page cache
  storage:
    driver: sqlite        # sqlite | mysql
    path: sbc-prices.db
  notify:
    ntfy:
      server: https://ntfy.sh
      topic: ""
      priority: default
      tags: soccer,soccer_ball
    email:
      smtp_port: 587
  logging:
    level: info
    format: json          # json | text
    output: stderr        # stderr | stdout | file path
    max_age: 0            # days; > 0 rotates file output
  server:
    addr: ":8080"

pricing:
  rating_90: "first listed price"
  rating_89: "mean of the first three prices"
  ratings_83_to_88: "mean of prices two to five"
  rounding: "half to even"
`
