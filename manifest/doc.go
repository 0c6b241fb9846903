/*
Package manifest declares the checks and endpoints a checkpoint service serves as YAML.

	checks:
	  - id: partner-key
	    variant: key-match
	    config:
	      key: s3cr3t
	routers:
	  - prefix: /api
	    checks: [partner-key]
	    endpoints:
	      - method: GET
	        path: /things/{id}
	        handler: echo
	        groups:
	          - context: params
	            properties:
	              - {name: id, type: number}

A check's variant names the check.Factory a check.Registry builds it with.
An endpoint's handler names one of the handlers passed to Apply.
*/
package manifest
