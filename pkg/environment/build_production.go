//go:build production

package environment

// BuildEnvironment reports the deployment target selected at build time.
func BuildEnvironment() Environment {
	return Production
}
