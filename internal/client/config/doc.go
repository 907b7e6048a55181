// Package config loads runtime configuration for the Planta client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "call_timeout": "15s",
//	  "store_backend": "badger",
//	  "db_path": "/var/lib/planta/kv",
//	  "metrics_addr": ":9102",
//	  "s3": {"endpoint": "http://127.0.0.1:9000", "bucket": "planta-images",
//	         "access_key": "minio", "secret_key": "minio123"}
//	}
//
// S3 credentials are only accepted from the JSON file.
package config
