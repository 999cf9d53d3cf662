/*
Package engineclient defines the ContainerEngineClient interface between
concrete container engine adaptor implementations and the engine-neutral
compute core, as well as the container and image records passed across this
interface.

Sub-packages implement specific container engine adaptors.
*/
package engineclient
