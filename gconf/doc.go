/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Every package keeps at most one configuration object, stored under the
"_c:<package>" key. Configuration is loaded from the genesis file "conf"
section and can be changed later only by the owner declared in the
configuration itself.

Not being able to get a configuration value is a critical condition for the
application. Handlers must fail the instruction when configuration is
missing.

*/
package gconf
