/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns a single configuration entity stored under the
"_c:<package>" key. The entity is loaded from the "conf" section of the
genesis file and read back by handlers whenever they need a tunable value,
for example the maximum size of a batch.
*/
package gconf
