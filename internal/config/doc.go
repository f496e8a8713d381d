// Package config manages the certinstall working directory: the tool-level
// YAML configuration and the per-domain key=value configuration files.
//
// # Working directory
//
// Everything lives under one working directory (default ~/.certinstall,
// overridable with --workdir):
//
//	<workdir>/config.yaml            tool settings (optional)
//	<workdir>/certinstall.cfg        global domain defaults (optional)
//	<workdir>/<domain>/certinstall.cfg   per-domain configuration
//	<workdir>/<domain>/<domain>.crt      written by the ACME client
//	<workdir>/<domain>/<domain>.key      written by the ACME client
//	<workdir>/<domain>/chain.crt         written by the ACME client
//	<workdir>/<domain>/dhparam.pem       generated locally
//	<workdir>/<domain>/.staging/         staging files for remote targets
//
// # Tool configuration
//
// config.yaml is optional; a missing file yields defaults:
//
//	getssl_path: getssl
//	openssl_path: openssl
//	acme_user: acme
//	challenge_dir: /var/www/challenges
//	concurrency: 4
//
// # Domain configuration
//
// Domain files use the getssl key=value format so existing getssl
// configuration can be reused verbatim. Recognized keys are the twelve
// *_LOCATION keys (one per artifact kind), DOMAIN_DHPARAM_LEN,
// REUSE_DHPARAM and RELOAD_CMD. Location values are a local path,
// ssh:host:path, or docker:container:path. Example:
//
//	DOMAIN_CERT_LOCATION=/etc/ssl/example.crt
//	DOMAIN_KEY_LOCATION=/etc/ssl/example.key
//	CA_CERT_LOCATION=/etc/ssl/chain.crt
//	DOMAIN_PEM_LOCATION=ssh:host1:/etc/nginx/example.pem
//	DOMAIN_DHPARAM_LEN=2048
//	REUSE_DHPARAM=true
//	RELOAD_CMD="systemctl reload nginx"
//
// The global certinstall.cfg at the top of the working directory supplies
// defaults; the domain file is merged on top of it. Unknown keys are ignored
// with a debug log, so a shared getssl.cfg can be pointed at directly.
//
// # Thread Safety
//
// A loaded Domain value is immutable and safe to share; loading itself is
// not synchronized.
package config
