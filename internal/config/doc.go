// Package config loads xwui.json, xwui.jsonc or xwui.yaml and turns it into
// an xwui.Config with its storage backend opened.
//
// # File Structure
//
//	title: My App
//	rootId: root
//	autoRender: true
//	router: true
//	style:
//	  prefix: xwui-
//	storage:
//	  backend: bolt        # memory, bolt or s3
//	  prefix: xwui_
//	  bolt:
//	    path: xwui.db
//	http:
//	  baseUrl: https://api.example.com
//	  timeout: 10s
//	server:
//	  host: localhost
//	  port: 3000
//	log:
//	  level: info
//	  format: text
//
// JSON files may carry comments and trailing commas.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	appCfg, closeStorage, err := cfg.AppConfig()
package config
