/*
Package postgres manages the database connection backing API credentials.
As part of the connection process, we also ensure that all migrations have been run on the proper database.
The situation where the database is simply a target for some testing has been considered as well.
In this scenario, we are dropping the public schema.
*/
package postgres
